// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

// Package result provides the uniform response envelopes returned by the HTTP API.
//
// Envelopes are immutable once built: fields are unexported and only readable
// through accessors. The JSON form is
//
//	{"success": true, "code": "200", "message": "success", "data": ...}
//
// with data set to null when there is no payload.
package result

import (
	"encoding/json"
)

// Default codes and messages.
const (
	SuccessCodeDefault    = "200"
	SuccessMessageDefault = "success"
	FailCodeDefault       = "500"
	FailMessageDefault    = "fail"
)

// Envelope is a single-payload API response.
type Envelope[T any] struct {
	success bool
	code    string
	message string
	data    *T
}

type envelopeJSON[T any] struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    *T     `json:"data"`
}

func newEnvelope[T any](success bool, message, code string, data *T) Envelope[T] {
	return Envelope[T]{success: success, code: code, message: message, data: data}
}

// Success returns the default success envelope with no payload.
func Success() Envelope[any] {
	return newEnvelope[any](true, SuccessMessageDefault, SuccessCodeDefault, nil)
}

// SuccessData returns a success envelope carrying data.
func SuccessData[T any](data T) Envelope[T] {
	return newEnvelope(true, SuccessMessageDefault, SuccessCodeDefault, &data)
}

// SuccessMessage returns a success envelope with a custom message and no payload.
func SuccessMessage(message string) Envelope[any] {
	return newEnvelope[any](true, message, SuccessCodeDefault, nil)
}

// SuccessCode returns a success envelope with a custom message and code.
func SuccessCode(message, code string) Envelope[any] {
	return newEnvelope[any](true, message, code, nil)
}

// NewSuccess returns a fully specified success envelope.
func NewSuccess[T any](message, code string, data T) Envelope[T] {
	return newEnvelope(true, message, code, &data)
}

// Fail returns the default failure envelope.
func Fail() Envelope[any] {
	return newEnvelope[any](false, FailMessageDefault, FailCodeDefault, nil)
}

// FailData returns a failure envelope carrying data.
func FailData[T any](data T) Envelope[T] {
	return newEnvelope(false, FailMessageDefault, FailCodeDefault, &data)
}

// FailMessage returns a failure envelope with a custom message.
func FailMessage(message string) Envelope[any] {
	return newEnvelope[any](false, message, FailCodeDefault, nil)
}

// FailCode returns a failure envelope with a custom message and code.
func FailCode(message, code string) Envelope[any] {
	return newEnvelope[any](false, message, code, nil)
}

// NewFail returns a fully specified failure envelope.
func NewFail[T any](message, code string, data T) Envelope[T] {
	return newEnvelope(false, message, code, &data)
}

// IsSuccess reports the success flag.
func (e Envelope[T]) IsSuccess() bool { return e.success }

// Code returns the status code string.
func (e Envelope[T]) Code() string { return e.code }

// Message returns the human readable message.
func (e Envelope[T]) Message() string { return e.message }

// Data returns the payload and whether one is present.
func (e Envelope[T]) Data() (T, bool) {
	if e.data == nil {
		var zero T
		return zero, false
	}
	return *e.data, true
}

// MarshalJSON implements json.Marshaler.
func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelopeJSON[T]{
		Success: e.success,
		Code:    e.code,
		Message: e.message,
		Data:    e.data,
	})
}

// UnmarshalJSON implements json.Unmarshaler, for clients decoding responses.
func (e *Envelope[T]) UnmarshalJSON(b []byte) error {
	var raw envelopeJSON[T]
	if err := json.Unmarshal(b, &raw); err != nil {
		return err //nolint:wrapcheck // json errors pass through unchanged
	}
	*e = newEnvelope(raw.Success, raw.Message, raw.Code, raw.Data)
	return nil
}
