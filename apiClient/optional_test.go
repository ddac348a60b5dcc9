package apiclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_States(t *testing.T) {
	var absent Optional[int]
	assert.True(t, absent.IsZero())
	assert.False(t, absent.IsNull())
	_, ok := absent.Get()
	assert.False(t, ok)

	null := Null[int]()
	assert.False(t, null.IsZero())
	assert.True(t, null.IsNull())
	_, ok = null.Get()
	assert.False(t, ok)

	set := Set(0)
	assert.False(t, set.IsZero())
	assert.False(t, set.IsNull())
	v, ok := set.Get()
	assert.True(t, ok)
	assert.Equal(t, 0, v)
}

func TestOptional_Marshal(t *testing.T) {
	data, err := json.Marshal(AppSettingsUpdateRequest{
		MaxStorageGB:  Set(12.5),
		RetentionDays: Null[int](),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"max_storage_gb":12.5,"retention_days":null}`, string(data))
}

func TestOptional_UnmarshalDistinguishesAbsentAndNull(t *testing.T) {
	var req AppSettingsUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"retention_days":null,"timezone":"UTC"}`), &req))

	assert.True(t, req.RetentionDays.IsNull())
	assert.True(t, req.MaxFramesPerTimelapse.IsZero())
	tz, ok := req.Timezone.Get()
	assert.True(t, ok)
	assert.Equal(t, "UTC", tz)
}
