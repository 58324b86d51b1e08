package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	t.Run("empty due date stays empty", func(t *testing.T) {
		var inv Invoice
		require.NoError(t, json.Unmarshal([]byte(`{"id":1,"due_date":""}`), &inv))
		assert.True(t, inv.DueDate.IsZero())

		b, err := json.Marshal(inv)
		require.NoError(t, err)
		assert.Contains(t, string(b), `"due_date":""`)
	})

	t.Run("null is the zero date", func(t *testing.T) {
		var inv Invoice
		require.NoError(t, json.Unmarshal([]byte(`{"due_date":null}`), &inv))
		assert.True(t, inv.DueDate.IsZero())
	})

	t.Run("calendar date", func(t *testing.T) {
		var inv Invoice
		require.NoError(t, json.Unmarshal([]byte(`{"due_date":"2026-03-31"}`), &inv))
		assert.Equal(t, "2026-03-31", inv.DueDate.String())
	})

	t.Run("timestamp is truncated", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2026-03-31T15:04:05Z"`), &d))
		assert.Equal(t, "2026-03-31", d.String())
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`"31/03/2026"`), &d))
		assert.Error(t, json.Unmarshal([]byte(`20260331`), &d))
	})
}

func TestInvoiceIsOverdue(t *testing.T) {
	today := time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)
	due := func(s string) Date {
		d, err := ParseDate(s)
		require.NoError(t, err)
		return d
	}

	tests := []struct {
		name string
		inv  Invoice
		want bool
	}{
		{"unpaid past due", Invoice{Status: StatusUnpaid, DueDate: due("2026-05-09")}, true},
		{"unpaid due today", Invoice{Status: StatusUnpaid, DueDate: due("2026-05-10")}, false},
		{"paid past due", Invoice{Status: StatusPaid, DueDate: due("2026-01-01")}, false},
		{"no due date", Invoice{Status: StatusUnpaid}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.inv.IsOverdue(today))
		})
	}
}

func TestStatusFilter(t *testing.T) {
	assert.True(t, FilterAll.Matches(StatusPaid))
	assert.True(t, FilterAll.Matches(StatusUnpaid))
	assert.True(t, FilterPaid.Matches(StatusPaid))
	assert.False(t, FilterPaid.Matches(StatusUnpaid))
	assert.False(t, StatusFilter("overdue").Valid())
}

func TestUserNames(t *testing.T) {
	u := User{Name: "Ada  Lovelace king"}
	assert.Equal(t, "ALK", u.Initials())
	assert.Equal(t, "Ada", u.FirstName())
	assert.Equal(t, "", User{}.FirstName())
}

func TestInvoiceDefaults(t *testing.T) {
	assert.Equal(t, NoDescription, Invoice{}.DisplayDescription())
	assert.Equal(t, StatusPaid, StatusUnpaid.Toggled())

	_, err := ParseInvoiceStatus("PAID")
	assert.Error(t, err)
}
