package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwaggerHost(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"api.kelfit.com", "api.kelfit.com"},
		{"https://api.kelfit.com", "api.kelfit.com"},
		{"http://localhost:8080/", "localhost:8080"},
		{" https://api.kelfit.com ", "api.kelfit.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, swaggerHost(tt.raw), tt.raw)
	}
}
