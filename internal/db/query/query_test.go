package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: DefaultLimit}, Params{}.Normalize())
	assert.Equal(t, Params{Page: 3, Limit: MaxLimit}, Params{Page: 3, Limit: 1000}.Normalize())
	assert.Equal(t, Params{Page: MaxPage, Limit: MaxLimit}, Params{Page: math.MaxInt, Limit: MaxLimit}.Normalize())
}

func TestOffsetOfHugePage(t *testing.T) {
	p := Params{Page: math.MaxInt, Limit: MaxLimit}.Normalize()
	assert.Equal(t, (MaxPage-1)*MaxLimit, p.offset())

	got := Build(Params{Page: math.MaxInt, Limit: 10}, 5)
	assert.Equal(t, MaxPage, got.CurrentPage)
	assert.Positive(t, got.StartItem)
	assert.Equal(t, int64(5), got.EndItem)
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name  string
		p     Params
		total int64
		want  Pagination
	}{
		{
			name: "empty",
			p:    Params{Page: 1, Limit: 10},
			want: Pagination{CurrentPage: 1},
		},
		{
			name:  "first page",
			p:     Params{Page: 1, Limit: 10},
			total: 25,
			want:  Pagination{TotalItems: 25, CurrentPage: 1, TotalPages: 3, StartItem: 1, EndItem: 10},
		},
		{
			name:  "last page",
			p:     Params{Page: 3, Limit: 10},
			total: 25,
			want:  Pagination{TotalItems: 25, CurrentPage: 3, TotalPages: 3, StartItem: 21, EndItem: 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Build(tt.p, tt.total))
		})
	}
}
