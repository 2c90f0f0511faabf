package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupplier(t *testing.T) {
	t.Run("creates active supplier with email method default", func(t *testing.T) {
		s, err := NewSupplier(uuid.New(), "Acme Wholesale")

		require.NoError(t, err)
		assert.True(t, s.IsActive)
		assert.False(t, s.AutoRestockEnabled)
		assert.Equal(t, RestockMethodEmail, s.RestockMethod)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		s, err := NewSupplier(uuid.New(), "  ")
		require.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestSupplier_EnableAutoRestock(t *testing.T) {
	t.Run("enables email restocking with contact email", func(t *testing.T) {
		s, err := NewSupplier(uuid.New(), "Acme Wholesale")
		require.NoError(t, err)
		s.Email = "orders@acme.example"

		require.NoError(t, s.EnableAutoRestock(RestockMethodEmail))
		assert.True(t, s.CanAutoRestock())
	})

	t.Run("rejects email restocking without contact email", func(t *testing.T) {
		s, err := NewSupplier(uuid.New(), "Acme Wholesale")
		require.NoError(t, err)

		err = s.EnableAutoRestock(RestockMethodEmail)

		require.Error(t, err)
		assert.False(t, s.AutoRestockEnabled)
	})

	t.Run("rejects api restocking without endpoint", func(t *testing.T) {
		s, err := NewSupplier(uuid.New(), "Acme Wholesale")
		require.NoError(t, err)

		err = s.EnableAutoRestock(RestockMethodAPI)

		require.Error(t, err)
	})

	t.Run("enables api restocking with endpoint", func(t *testing.T) {
		s, err := NewSupplier(uuid.New(), "Acme Wholesale")
		require.NoError(t, err)
		s.APIEndpoint = "https://acme.example/restock"

		require.NoError(t, s.EnableAutoRestock(RestockMethodAPI))
		assert.Equal(t, RestockMethodAPI, s.RestockMethod)
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		s, err := NewSupplier(uuid.New(), "Acme Wholesale")
		require.NoError(t, err)

		assert.Error(t, s.EnableAutoRestock(RestockMethod("fax")))
	})
}

func TestSupplier_CanAutoRestock(t *testing.T) {
	s, err := NewSupplier(uuid.New(), "Acme Wholesale")
	require.NoError(t, err)
	s.Email = "orders@acme.example"
	require.NoError(t, s.EnableAutoRestock(RestockMethodEmail))

	assert.True(t, s.CanAutoRestock())

	s.IsActive = false
	assert.False(t, s.CanAutoRestock())

	s.IsActive = true
	s.DisableAutoRestock()
	assert.False(t, s.CanAutoRestock())
}
