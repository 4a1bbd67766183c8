package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOrderRow feeds canned column values into scanOrderRow.
type fakeOrderRow struct {
	values []interface{}
}

func (f *fakeOrderRow) Scan(dest ...interface{}) error {
	for i, d := range dest {
		switch target := d.(type) {
		case *string:
			*target = f.values[i].(string)
		case **string:
			if f.values[i] == nil {
				*target = nil
			} else {
				s := f.values[i].(string)
				*target = &s
			}
		case *int64:
			*target = f.values[i].(int64)
		case *int:
			*target = f.values[i].(int)
		case *float64:
			*target = f.values[i].(float64)
		case *bool:
			*target = f.values[i].(bool)
		case *[]byte:
			*target = f.values[i].([]byte)
		case *time.Time:
			*target = f.values[i].(time.Time)
		}
	}
	return nil
}

func orderRowWithClicks(clicksJSON string) *fakeOrderRow {
	return &fakeOrderRow{values: []interface{}{
		"5001",               // order_id
		int64(1042),          // order_number
		"sess-1",             // session_id
		118.80,               // total_price
		99.00,                // subtotal_price
		19.80,                // total_tax
		"EUR",                // currency
		[]byte(`{}`),         // customer
		[]byte(`[]`),         // line_items
		[]byte(`{}`),         // raw_source
		true,                 // processed
		[]byte(clicksJSON),   // matched_clicks
		0,                    // click_count
		time.Now().UTC(),     // created_at
	}}
}

func TestScanOrderRowNullMatchedClicks(t *testing.T) {
	rec, err := scanOrderRow(orderRowWithClicks(`null`))
	require.NoError(t, err)
	require.NotNil(t, rec.MatchedClicks)
	assert.Empty(t, rec.MatchedClicks)
}

func TestScanOrderRowEmptyMatchedClicks(t *testing.T) {
	rec, err := scanOrderRow(orderRowWithClicks(`[]`))
	require.NoError(t, err)
	require.NotNil(t, rec.MatchedClicks)
	assert.Empty(t, rec.MatchedClicks)
}

func TestScanOrderRowMatchedClicks(t *testing.T) {
	rec, err := scanOrderRow(orderRowWithClicks(`[{"session_id":"sess-1","product_id":"12345"}]`))
	require.NoError(t, err)
	require.Len(t, rec.MatchedClicks, 1)
	assert.Equal(t, "12345", rec.MatchedClicks[0].ProductID)
	require.NotNil(t, rec.SessionID)
	assert.Equal(t, "sess-1", *rec.SessionID)
	assert.Equal(t, 118.80, rec.TotalPrice)
}
