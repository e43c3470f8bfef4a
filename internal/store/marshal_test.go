package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalNames(t *testing.T) {
	data, err := marshalNames([]string{"Bar", "Dancing", "Drinking", "Structure"})
	require.NoError(t, err)
	assert.Equal(t, `["Bar","Dancing","Drinking","Structure"]`, data)

	empty, err := marshalNames(nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, empty)
}

func TestUnmarshalNames(t *testing.T) {
	names, err := unmarshalNames(`["A","B"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)

	names, err = unmarshalNames(`[]`)
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)

	names, err = unmarshalNames("")
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = unmarshalNames(`{"a":1}`)
	assert.Error(t, err)
}
