package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_IsAllowed(t *testing.T) {
	var testCases = []struct {
		description string
		policy      *Policy
		action      string
		expect      bool
	}{
		{
			description: "nil policy allows everything",
			action:      "SETANS",
			expect:      true,
		},
		{
			description: "block list wins over allow list",
			policy:      &Policy{AllowList: []string{"NOTIFY"}, BlockList: []string{"notify"}},
			action:      "NOTIFY",
			expect:      false,
		},
		{
			description: "empty allow list permits unlisted actions",
			policy:      &Policy{BlockList: []string{"NOTIFY"}},
			action:      "SETANS",
			expect:      true,
		},
		{
			description: "non-empty allow list excludes unlisted actions",
			policy:      &Policy{AllowList: []string{"SETANS"}},
			action:      "SHOWQ",
			expect:      false,
		},
		{
			description: "matching is case-insensitive",
			policy:      &Policy{AllowList: []string{"setans"}},
			action:      "SETANS",
			expect:      true,
		},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, testCase.policy.IsAllowed(testCase.action), testCase.description)
	}
}

func TestPolicy_Approves(t *testing.T) {
	ctx := context.Background()

	deny := &Policy{Mode: ModeDeny}
	assert.False(t, deny.Approves(ctx, "SETANS", nil))

	asked := false
	ask := &Policy{Mode: ModeAsk, Ask: func(_ context.Context, action string, args []string, _ *Policy) bool {
		asked = true
		return action == "SETANS"
	}}
	assert.True(t, ask.Approves(ctx, "SETANS", []string{"b", "'done'"}))
	assert.True(t, asked)
	assert.False(t, ask.Approves(ctx, "NOTIFY", nil))

	// ask mode without an AskFunc fails closed
	assert.False(t, (&Policy{Mode: ModeAsk}).Approves(ctx, "SETANS", nil))
}

func TestContextRoundTrip(t *testing.T) {
	p := &Policy{Mode: ModeAuto}
	ctx := WithPolicy(context.Background(), p)
	assert.Same(t, p, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
}
