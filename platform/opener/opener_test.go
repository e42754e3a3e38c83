package opener

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Kinds(t *testing.T) {
	o, err := New("", "", nil)
	require.NoError(t, err)
	assert.IsType(t, &System{}, o)

	o, err = New(KindBrowser, "/usr/bin/chromium", nil)
	require.NoError(t, err)
	assert.IsType(t, &Browser{}, o)

	_, err = New("carrier-pigeon", "", nil)
	assert.Error(t, err)
}

func TestOpen_RejectsRelativeReferences(t *testing.T) {
	for _, o := range []Opener{&System{}, NewBrowser("", nil)} {
		err := o.Open(context.Background(), "/blob/123")
		assert.ErrorIs(t, err, ErrBlocked)
	}
}

func TestBrowser_CloseWithoutLaunch(t *testing.T) {
	assert.NoError(t, NewBrowser("", nil).Close())
}
