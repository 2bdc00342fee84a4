package pager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cmarchi/cartaz/internal/filter"
)

func TestVisible(t *testing.T) {
	assert.Equal(t, 18, Visible(25, 2, 9))
	assert.Equal(t, 25, Visible(25, 3, 9))
	assert.Equal(t, 9, Visible(25, 1, 9))
	assert.Equal(t, 0, Visible(0, 1, 9))
	assert.Equal(t, 25, Visible(25, 99, 9))
	// Degenerate inputs clamp instead of misbehaving.
	assert.Equal(t, 9, Visible(25, 0, 9))
	assert.Equal(t, 9, Visible(25, 1, 0))
	assert.Equal(t, 0, Visible(-1, 1, 9))
}

func TestViewHonorsPageWhileUnchanged(t *testing.T) {
	var v View
	c := filter.Criteria{Query: "cultura"}

	assert.Equal(t, 1, v.Resolve(c, 9, 1, 1))
	assert.Equal(t, 2, v.Resolve(c, 9, 1, 2))
	assert.Equal(t, 5, v.Resolve(c, 9, 1, 5))
}

func TestViewResetsOnCriteriaChange(t *testing.T) {
	var v View
	v.Resolve(filter.Criteria{Query: "a"}, 9, 1, 1)
	v.Resolve(filter.Criteria{Query: "a"}, 9, 1, 3)
	assert.Equal(t, 3, v.Page())

	page := v.Resolve(filter.Criteria{Query: "b"}, 9, 1, 3)
	assert.Equal(t, 1, page, "query change must reset to page one")

	v.Resolve(filter.Criteria{Query: "b"}, 9, 1, 4)
	page = v.Resolve(filter.Criteria{Query: "b", From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)}, 9, 1, 4)
	assert.Equal(t, 1, page, "range change must reset to page one")
}

func TestViewResetsOnPageSizeChange(t *testing.T) {
	var v View
	c := filter.Criteria{}
	v.Resolve(c, 9, 1, 4)
	assert.Equal(t, 1, v.Resolve(c, 12, 1, 4))
}

func TestViewResetsOnCatalogChange(t *testing.T) {
	var v View
	c := filter.Criteria{}
	v.Resolve(c, 9, 1, 4)
	assert.Equal(t, 1, v.Resolve(c, 9, 2, 4), "catalog revision bump must reset paging")
}

func TestViewFirstRequestStartsAtOne(t *testing.T) {
	var v View
	assert.Equal(t, 1, v.Resolve(filter.Criteria{}, 9, 1, 7))
}

func TestAdvance(t *testing.T) {
	var v View
	v.Resolve(filter.Criteria{}, 9, 1, 1)
	assert.Equal(t, 2, v.Advance())
	assert.Equal(t, 3, v.Advance())
}
