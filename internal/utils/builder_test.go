package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectWithConditions(t *testing.T) {
	query, args := NewQueryBuilder("public").
		Select("oc_id", "course_id").
		From("user_courses").
		Where("oc_id = ?", "alice.edu").
		And("course_id = ?", "c1").
		OrderBy("enrolled_at", false).
		Limit(1).
		Build()

	assert.Equal(t, "SELECT oc_id, course_id FROM public.user_courses WHERE oc_id = ? AND course_id = ? ORDER BY enrolled_at DESC LIMIT 1", query)
	assert.Equal(t, []interface{}{"alice.edu", "c1"}, args)
}

func TestSelectWithoutTable(t *testing.T) {
	query, args := NewQueryBuilder("").Select("*").Build()
	assert.Empty(t, query)
	assert.Nil(t, args)
}

func TestInsertMultipleRows(t *testing.T) {
	query, args := NewQueryBuilder("public").
		Insert("a", "b").
		Into("t").
		Values(1, 2).
		Values(3, 4).
		Build()

	assert.Equal(t, "INSERT INTO public.t (a, b) VALUES (?, ?), (?, ?)", query)
	assert.Equal(t, []interface{}{1, 2, 3, 4}, args)
}

func TestInsertOnConflictDoUpdate(t *testing.T) {
	query, args := NewQueryBuilder("public").
		Insert("oc_id", "course_id", "completed").
		Into("user_courses").
		Values("alice", "c1", true).
		OnConflict("oc_id", "course_id").
		SetExclude("completed").
		Returning("(xmax = 0) AS inserted").
		Build()

	assert.Equal(t, "INSERT INTO public.user_courses (oc_id, course_id, completed) VALUES (?, ?, ?) "+
		"ON CONFLICT (oc_id, course_id) DO UPDATE SET completed = EXCLUDED.completed "+
		"RETURNING (xmax = 0) AS inserted", query)
	assert.Equal(t, []interface{}{"alice", "c1", true}, args)
}

func TestInsertOnConflictWithoutUpdate(t *testing.T) {
	query, _ := NewQueryBuilder("s").
		Insert("a").
		Into("t").
		Values(1).
		OnConflict("a").
		Build()

	assert.Equal(t, "INSERT INTO s.t (a) VALUES (?) ON CONFLICT (a) DO NOTHING", query)
}

func TestInsertArityMismatch(t *testing.T) {
	query, args := NewQueryBuilder("s").Insert("a", "b").Into("t").Values(1).Build()
	assert.Empty(t, query)
	assert.Nil(t, args)
}
