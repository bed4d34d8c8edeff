// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package result_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guns21/authkit/internal/result"
)

func TestPagedSuccess(t *testing.T) {
	items := []string{"ADMIN", "USER"}
	page := result.PagedSuccess(items, 2, 2, 5)
	items[0] = "mutated"

	assert.True(t, page.IsSuccess())
	assert.Equal(t, "200", page.Code())
	assert.Equal(t, "success", page.Message())
	assert.Equal(t, []string{"ADMIN", "USER"}, page.Items())
	assert.Equal(t, 2, page.Current())
	assert.Equal(t, 2, page.PageSize())
	assert.Equal(t, 5, page.Totals())

	got := page.Items()
	got[1] = "mutated"
	assert.Equal(t, []string{"ADMIN", "USER"}, page.Items())
}

func TestPagedFail(t *testing.T) {
	page := result.PagedFail[string]("lookup failed")
	assert.False(t, page.IsSuccess())
	assert.Equal(t, "500", page.Code())
	assert.Equal(t, "lookup failed", page.Message())
	assert.Empty(t, page.Items())

	custom := result.NewPagedFail[int]("bad paging", "400")
	assert.Equal(t, "400", custom.Code())
}

func TestPagedEnvelope_JSON(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		b, err := json.Marshal(result.NewPagedSuccess("ok", "200", []int{1, 2}, 1, 10, 2))
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"success":true,"code":"200","message":"ok","data":[1,2],"current":1,"pageSize":10,"totals":2}`,
			string(b))
	})

	t.Run("empty success page encodes empty array", func(t *testing.T) {
		b, err := json.Marshal(result.PagedSuccess[int](nil, 3, 10, 0))
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"success":true,"code":"200","message":"success","data":[],"current":3,"pageSize":10,"totals":0}`,
			string(b))
	})

	t.Run("failure encodes null data", func(t *testing.T) {
		b, err := json.Marshal(result.PagedFail[int]("fail"))
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"success":false,"code":"500","message":"fail","data":null,"current":0,"pageSize":0,"totals":0}`,
			string(b))
	})

	t.Run("decode", func(t *testing.T) {
		var page result.PagedEnvelope[string]
		require.NoError(t, json.Unmarshal(
			[]byte(`{"success":true,"code":"200","message":"success","data":["a"],"current":1,"pageSize":1,"totals":9}`),
			&page))
		assert.Equal(t, []string{"a"}, page.Items())
		assert.Equal(t, 9, page.Totals())
	})
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name              string
		current, pageSize int
		want              result.Page
	}{
		{name: "defaults", current: 0, pageSize: 0, want: result.Page{Current: 1, PageSize: 10}},
		{name: "negative", current: -3, pageSize: -1, want: result.Page{Current: 1, PageSize: 10}},
		{name: "in range", current: 4, pageSize: 25, want: result.Page{Current: 4, PageSize: 25}},
		{name: "capped", current: 1, pageSize: 1000, want: result.Page{Current: 1, PageSize: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, result.NormalizePage(tt.current, tt.pageSize))
		})
	}
}

func TestSlice(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, result.Slice(all, result.Page{Current: 1, PageSize: 2}))
	assert.Equal(t, []int{5}, result.Slice(all, result.Page{Current: 3, PageSize: 2}))
	assert.Equal(t, []int{}, result.Slice(all, result.Page{Current: 4, PageSize: 2}))
	assert.Equal(t, 4, result.Page{Current: 3, PageSize: 2}.Offset())
}

func TestSlice_HugePageNumber(t *testing.T) {
	all := []int{1, 2, 3}
	for _, size := range []int{1, 10, result.MaxPageSize} {
		page := result.NormalizePage(math.MaxInt, size)
		assert.NotPanics(t, func() {
			assert.Equal(t, []int{}, result.Slice(all, page))
		})
		assert.Equal(t, math.MaxInt, page.Offset())
	}
}

func TestSlice_UnnormalizedPage(t *testing.T) {
	all := []int{1, 2, 3}
	assert.Equal(t, []int{}, result.Slice(all, result.Page{Current: 1, PageSize: 0}))
	assert.Equal(t, []int{1, 2}, result.Slice(all, result.Page{Current: -3, PageSize: 2}))
	assert.Equal(t, []int{}, result.Slice([]int{}, result.Page{Current: 1, PageSize: 10}))
}
