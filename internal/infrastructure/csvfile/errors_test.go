package csvfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowError(t *testing.T) {
	t.Run("Error with column", func(t *testing.T) {
		err := NewRowError(5, "quantity", ErrCodeInvalidValue, "not a number")
		assert.Equal(t, "row 5, column 'quantity': not a number", err.Error())
	})

	t.Run("Error without column", func(t *testing.T) {
		err := NewRowError(3, "", ErrCodeMalformedRow, "wrong field count")
		assert.Equal(t, "row 3: wrong field count", err.Error())
	})

	t.Run("Error with value", func(t *testing.T) {
		err := NewRowErrorWithValue(2, "price", ErrCodeInvalidValue, "not a number", "abc")
		assert.Equal(t, "abc", err.Value)
		assert.Equal(t, ErrCodeInvalidValue, err.Code)
	})
}

func TestErrorCollection(t *testing.T) {
	t.Run("Collects errors up to limit", func(t *testing.T) {
		ec := NewErrorCollection(3)

		for i := 1; i <= 5; i++ {
			ec.Add(NewRowError(i, "field", ErrCodeInvalidValue, "bad"))
		}

		assert.Equal(t, 3, ec.Count())
		assert.Equal(t, 5, ec.TotalCount())
		assert.True(t, ec.IsTruncated())
	})

	t.Run("Not truncated below limit", func(t *testing.T) {
		ec := NewErrorCollection(10)
		ec.Add(NewRowError(1, "field", ErrCodeInvalidValue, "bad"))

		assert.Equal(t, 1, ec.Count())
		assert.False(t, ec.IsTruncated())
	})

	t.Run("HasErrors", func(t *testing.T) {
		ec := NewErrorCollection(10)
		assert.False(t, ec.HasErrors())

		ec.AddRequiredError(2, "customer")
		assert.True(t, ec.HasErrors())
	})

	t.Run("Zero limit uses default", func(t *testing.T) {
		ec := NewErrorCollection(0)

		for i := 0; i < 150; i++ {
			ec.Add(NewRowError(i, "field", ErrCodeInvalidValue, "bad"))
		}

		assert.Equal(t, 100, ec.Count())
		assert.Equal(t, 150, ec.TotalCount())
	})

	t.Run("AddValueError records value", func(t *testing.T) {
		ec := NewErrorCollection(10)
		ec.AddValueError(4, "quantity", "invalid quantity", "-2")

		errs := ec.Errors()
		assert.Len(t, errs, 1)
		assert.Equal(t, "-2", errs[0].Value)
	})

	t.Run("String summarizes errors", func(t *testing.T) {
		ec := NewErrorCollection(10)
		assert.Equal(t, "no errors", ec.String())

		ec.Add(NewRowError(2, "price", ErrCodeInvalidValue, "not a number"))
		s := ec.String()
		assert.Contains(t, s, "1 error(s) found")
		assert.Contains(t, s, "row 2, column 'price'")
	})
}
