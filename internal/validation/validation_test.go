package validation

import (
	"errors"
	"testing"

	"wholesale-be/internal/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	ProductID string          `json:"productId" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"gt=0"`
}

type checkout struct {
	Items []line `json:"items" validate:"required,min=1,dive"`
}

func TestStruct(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		req := checkout{Items: []line{{
			ProductID: "0b8f9a6e-8c1e-4f7a-9d55-3f4c2b1a0e11",
			Quantity:  2,
			UnitPrice: decimal.RequireFromString("12.50"),
		}}}
		assert.NoError(t, Struct(req))
	})

	t.Run("EmptyItems", func(t *testing.T) {
		err := Struct(checkout{})
		require.Error(t, err)
		assert.True(t, apperror.Is(err, apperror.KindValidation))

		var appErr *apperror.Error
		require.True(t, errors.As(err, &appErr))
		fields := appErr.Details["fields"].(map[string]string)
		assert.Equal(t, "required", fields["items"])
	})

	t.Run("BadLine", func(t *testing.T) {
		req := checkout{Items: []line{{ProductID: "nope", Quantity: 0, UnitPrice: decimal.Zero}}}

		err := Struct(req)

		var appErr *apperror.Error
		require.True(t, errors.As(err, &appErr))
		fields := appErr.Details["fields"].(map[string]string)
		assert.Equal(t, "uuid", fields["items[0].productId"])
		assert.Equal(t, "gt", fields["items[0].quantity"])
		assert.Equal(t, "gt", fields["items[0].unitPrice"])
	})
}

func TestMalformed(t *testing.T) {
	err := Malformed(errors.New("unexpected EOF"))
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Contains(t, err.Error(), "unexpected EOF")
}
