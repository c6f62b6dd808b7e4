package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveURL(t *testing.T) {
	base := "https://usosapd.put.poznan.pl"

	assert.Equal(t, base+"/topics/12345/", ResolveURL(base, "/topics/12345/"))
	assert.Equal(t, base+"/topics/12345/", ResolveURL(base+"/", "/topics/12345/"))
	assert.Equal(t, base+"/topics/1/", ResolveURL(base, "topics/1/"))
	assert.Equal(t, "https://other.example.com/x", ResolveURL(base, "https://other.example.com/x"))
	assert.Equal(t, "", ResolveURL(base, "  "))
}
