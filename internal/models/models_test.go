package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntBool_Unmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
		wantErr  bool
	}{
		{name: "one", input: "1", expected: true},
		{name: "zero", input: "0", expected: false},
		{name: "true", input: "true", expected: true},
		{name: "false", input: "false", expected: false},
		{name: "null", input: "null", expected: false},
		{name: "garbage", input: `"yes"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b IntBool
			err := json.Unmarshal([]byte(tt.input), &b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, b.Bool())
		})
	}
}

func TestIntBool_MarshalKeepsNumericEncoding(t *testing.T) {
	out, err := json.Marshal(struct {
		Verified IntBool `json:"verified"`
		Deleted  IntBool `json:"deleted"`
	}{Verified: true, Deleted: false})
	require.NoError(t, err)
	assert.JSONEq(t, `{"verified":1,"deleted":0}`, string(out))
}

func TestPlugin_KeywordList(t *testing.T) {
	tests := []struct {
		name     string
		keywords string
		expected []string
	}{
		{name: "encoded list", keywords: `["git","editor"]`, expected: []string{"git", "editor"}},
		{name: "empty", keywords: "", expected: nil},
		{name: "malformed", keywords: "git,editor", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Plugin{Keywords: tt.keywords}
			assert.Equal(t, tt.expected, p.KeywordList())
		})
	}
}

func TestPlugin_SupportsClient(t *testing.T) {
	assert.True(t, Plugin{MinVersionCode: 0}.SupportsClient(100))
	assert.True(t, Plugin{MinVersionCode: 290}.SupportsClient(290))
	assert.False(t, Plugin{MinVersionCode: 290}.SupportsClient(289))
}

func TestCompareVersions(t *testing.T) {
	assert.Equal(t, -1, CompareVersions("1.2.0", "1.10.0"))
	assert.Equal(t, 0, CompareVersions("2.0.0", "2.0.0"))
	assert.Equal(t, 1, CompareVersions("2.0.1", "2.0.0"))
}

func TestPaymentMethod_Kind(t *testing.T) {
	assert.Equal(t, MethodPaypal, PaymentMethod{PaypalEmail: "p@x.com"}.Kind())
	assert.Equal(t, MethodWallet, PaymentMethod{WalletAddress: "0xabc", WalletType: "eth"}.Kind())
	assert.Equal(t, MethodBank, PaymentMethod{BankName: "X"}.Kind())
}

func TestLoginSession_DeepLink(t *testing.T) {
	s := LoginSession{Token: "tok123"}
	assert.Equal(t, "acode://user/login/tok123", s.DeepLink())
}
