package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"CompanyInsights/internal/llm"
)

type stubModel struct {
	answer string
	err    error
	prompt string
}

func (s *stubModel) Invoke(_ context.Context, prompt string) (*llm.Response, error) {
	s.prompt = prompt
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Response{Content: s.answer}, nil
}

func (s *stubModel) Name() string { return "stub" }

func TestNormalize(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"2021-03-15", "2021-03-15", true},
		{"03/15/2021", "2021-03-15", true},
		{"March 15, 2021", "2021-03-15", true},
		{"March 5, 2021", "2021-03-05", true},
		{"2021", "2021-01-01", true},
		{"  2021-03-15\n", "2021-03-15", true},
		{"2021-13-45", "2021-13-45", true},
		{"13/45/2021", "", false},
		{"Smarch 15, 2021", "", false},
		{"not a date", "", false},
		{"", "", false},
		{"The event happened on 2021-03-15.", "", false},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.in)
		assert.Equal(t, tt.wantOK, ok, "Normalize(%q) ok", tt.in)
		assert.Equal(t, tt.want, got, "Normalize(%q)", tt.in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{"2021-03-15", "03/15/2021", "March 15, 2021", "2021"} {
		once, ok := Normalize(in)
		require.True(t, ok)
		twice, ok := Normalize(once)
		require.True(t, ok)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestResolve(t *testing.T) {
	m := &stubModel{answer: "\n 2020-07-14 \n"}
	r := New(m, zaptest.NewLogger(t))

	got := r.Resolve(context.Background(), "Historical details about Acme")
	require.NotNil(t, got)
	assert.Equal(t, "2020-07-14", *got)
	assert.Contains(t, m.prompt, "Historical details about Acme")
	assert.Contains(t, m.prompt, "YYYY-MM-DD")
}

func TestResolve_UnparseableAnswer(t *testing.T) {
	r := New(&stubModel{answer: "I am not sure, maybe sometime in spring"}, zaptest.NewLogger(t))
	assert.Nil(t, r.Resolve(context.Background(), "q"))
}

func TestResolve_ModelError(t *testing.T) {
	r := New(&stubModel{err: errors.New("connection refused")}, zaptest.NewLogger(t))
	assert.Nil(t, r.Resolve(context.Background(), "q"))
}
