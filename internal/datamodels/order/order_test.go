package order

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusJSON(t *testing.T) {
	var u Update
	require.NoError(t, json.Unmarshal([]byte(`{"status":"completed","payment_status":"Pre-paid"}`), &u))
	require.NotNil(t, u.Status)
	require.NotNil(t, u.PaymentStatus)
	assert.Equal(t, StatusCompleted, *u.Status)
	assert.Equal(t, PaymentPrePaid, *u.PaymentStatus)

	assert.Error(t, json.Unmarshal([]byte(`{"status":"shipped"}`), &u))
	assert.Error(t, json.Unmarshal([]byte(`{"payment_status":"cod"}`), &u), "values are case sensitive")
}

func TestUpdateOmittedFieldsStayNil(t *testing.T) {
	var u Update
	require.NoError(t, json.Unmarshal([]byte(`{"status":"processing"}`), &u))
	assert.Nil(t, u.PaymentStatus)
}
