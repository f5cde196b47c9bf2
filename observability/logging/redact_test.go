package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsAllowlistedIsCaseAndSpaceInsensitive(t *testing.T) {
	require.True(t, IsAllowlisted("event_id"))
	require.True(t, IsAllowlisted(" Event_ID "))
	require.False(t, IsAllowlisted("private_key"))
}

func TestMaskValueLeavesEmptyUnchanged(t *testing.T) {
	require.Equal(t, "", MaskValue(""))
	require.Equal(t, RedactedValue, MaskValue("secret"))
}

func TestMaskFieldSkipsAllowlistedKeys(t *testing.T) {
	attr := MaskField("event_id", "01990000-0000-7000-8000-000000000001")
	require.Equal(t, "01990000-0000-7000-8000-000000000001", attr.Value.String())
}

func TestMaskFieldRedactsNonAllowlistedKeys(t *testing.T) {
	attr := MaskField("private_key", "deadbeef")
	require.Equal(t, RedactedValue, attr.Value.String())
}
