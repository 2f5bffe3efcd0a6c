package version_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flindersuni/xamlstyle/pkg/version"
)

func TestString(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, version.GetVersion())

	s := version.String()
	assert.True(t, strings.HasPrefix(s, version.GetVersion()+" (revision "))
	assert.Contains(t, s, version.GoOS+"/"+version.GoArch)
}
