package http

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriteriaFromQuery_Empty(t *testing.T) {
	c, err := criteriaFromQuery(url.Values{})
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestCriteriaFromQuery_DateBounds(t *testing.T) {
	q := url.Values{
		"order_date_from": {"01/03/2024"},
		"exec_date_to":    {"2024-03-31"},
	}

	c, err := criteriaFromQuery(q)
	require.NoError(t, err)
	require.NotNil(t, c.OrderDateFrom)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *c.OrderDateFrom)
	require.NotNil(t, c.ExecDateTo)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), *c.ExecDateTo)
	assert.Nil(t, c.OrderDateTo)
	assert.Nil(t, c.ExecDateFrom)
}

func TestCriteriaFromQuery_WeekBucketBounds(t *testing.T) {
	q := url.Values{
		"order_date_from": {"2024-W24"},
		"order_date_to":   {"2024-W24"},
		"exec_date_from":  {"2024-W01"},
	}

	c, err := criteriaFromQuery(q)
	require.NoError(t, err)

	// From-bounds take the week's Monday, to-bounds its Sunday.
	require.NotNil(t, c.OrderDateFrom)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), *c.OrderDateFrom)
	require.NotNil(t, c.OrderDateTo)
	assert.Equal(t, time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC), *c.OrderDateTo)
	require.NotNil(t, c.ExecDateFrom)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *c.ExecDateFrom)
}

func TestCriteriaFromQuery_BadWeekBucket(t *testing.T) {
	_, err := criteriaFromQuery(url.Values{"order_date_from": {"2024-W54"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order_date_from")
}

func TestCriteriaFromQuery_BadDate(t *testing.T) {
	_, err := criteriaFromQuery(url.Values{"order_date_to": {"31-31-2024"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order_date_to")
}

func TestCriteriaFromQuery_ListParams(t *testing.T) {
	q := url.Values{
		"job_types": {"CM,BDN", "INSP"},
		"statuses":  {" TER , EXE "},
	}

	c, err := criteriaFromQuery(q)
	require.NoError(t, err)
	assert.Equal(t, []string{"CM", "BDN", "INSP"}, c.JobTypes)
	assert.Equal(t, []string{"TER", "EXE"}, c.Statuses)
}
