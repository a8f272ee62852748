package scoring

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowJSONMonthIsZeroBased(t *testing.T) {
	b, err := json.Marshal(MonthWindow(2026, time.January))
	require.NoError(t, err)
	assert.JSONEq(t, `{"year":2026,"month":0}`, string(b))

	b, err = json.Marshal(MonthWindow(2026, time.December))
	require.NoError(t, err)
	assert.JSONEq(t, `{"year":2026,"month":11}`, string(b))

	b, err = json.Marshal(YearWindow(2025))
	require.NoError(t, err)
	assert.JSONEq(t, `{"year":2025}`, string(b))

	var w Window
	require.NoError(t, json.Unmarshal([]byte(`{"year":2026,"month":0}`), &w))
	assert.Equal(t, MonthWindow(2026, time.January), w)
	require.NoError(t, json.Unmarshal([]byte(`{"year":2026}`), &w))
	assert.Equal(t, YearWindow(2026), w)
	assert.Error(t, json.Unmarshal([]byte(`{"year":2026,"month":12}`), &w))
}

func TestWindowLabels(t *testing.T) {
	assert.Equal(t, "January 2026", MonthWindow(2026, time.January).Label())
	assert.Equal(t, "Year 2026", YearWindow(2026).Label())
	assert.Equal(t, "2026-03", MonthWindow(2026, time.March).String())
}
