package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentMethod_UnmarshalJSON(t *testing.T) {
	var m PaymentMethod
	require.NoError(t, json.Unmarshal([]byte(`" GCash "`), &m))
	assert.Equal(t, PaymentGCash, m)

	require.NoError(t, json.Unmarshal([]byte(`""`), &m))
	assert.Equal(t, PaymentCash, m)

	assert.Error(t, json.Unmarshal([]byte(`"bitcoin"`), &m))
}

func TestRole(t *testing.T) {
	assert.True(t, RoleManager.CanManage())
	assert.False(t, RoleCashier.CanManage())
	assert.False(t, Role("owner").IsValid())
}
