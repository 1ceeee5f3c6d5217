package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "")
	assert.Equal(t, "fallback", GetEnvString("TEST_STRING", "fallback"))

	t.Setenv("TEST_STRING", "value")
	assert.Equal(t, "value", GetEnvString("TEST_STRING", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "unset", value: "", want: 7},
		{name: "valid", value: "42", want: 42},
		{name: "negative", value: "-3", want: -3},
		{name: "invalid", value: "abc", want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.value)
			assert.Equal(t, tt.want, GetEnvInt("TEST_INT", 7))
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "", want: true},
		{value: "false", want: false},
		{value: "0", want: false},
		{value: "TRUE", want: true},
		{value: "yes", want: true}, // invalid, default kept
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, GetEnvBool("TEST_BOOL", true))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "1m30s")
	assert.Equal(t, 90*time.Second, GetEnvDuration("TEST_DURATION", time.Second))

	t.Setenv("TEST_DURATION", "ninety")
	assert.Equal(t, time.Second, GetEnvDuration("TEST_DURATION", time.Second))
}

func TestGetEnvFloat(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  float64
	}{
		{name: "unset", value: "", want: 0.1},
		{name: "valid", value: "0.25", want: 0.25},
		{name: "integer", value: "3", want: 3},
		{name: "invalid", value: "a lot", want: 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_FLOAT", tt.value)
			assert.Equal(t, tt.want, GetEnvFloat("TEST_FLOAT", 0.1))
		})
	}
}

func TestGetEnvStringList(t *testing.T) {
	def := []string{"default"}

	t.Setenv("TEST_LIST", " a, ,b ,c")
	assert.Equal(t, []string{"a", "b", "c"}, GetEnvStringList("TEST_LIST", def))

	t.Setenv("TEST_LIST", " , ")
	assert.Equal(t, def, GetEnvStringList("TEST_LIST", def))
}
