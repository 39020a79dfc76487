package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/go-playground/validator.v9"
)

func newValidate(t *testing.T) *validator.Validate {
	validate := validator.New()
	require.NoError(t, RegisterAll(validate))
	return validate
}

func TestHexValidators(t *testing.T) {
	validate := newValidate(t)
	type args struct {
		value string
		tag   string
	}
	tests := []struct {
		name    string
		args    args
		wantErr bool
	}{
		{
			"hash of the right length",
			args{strings.Repeat("ab", 32), HexHashValidatorTag},
			false,
		},
		{
			"upper case hex is fine",
			args{strings.Repeat("AB", 32), HexHashValidatorTag},
			false,
		},
		{
			"hash too short",
			args{strings.Repeat("ab", 31), HexHashValidatorTag},
			true,
		},
		{
			"hash with non-hex chars",
			args{strings.Repeat("zz", 32), HexHashValidatorTag},
			true,
		},
		{
			"empty hash",
			args{"", HexHashValidatorTag},
			true,
		},
		{
			"public key of the right length",
			args{strings.Repeat("01", 32), HexPublicKeyValidatorTag},
			false,
		},
		{
			"public key too long",
			args{strings.Repeat("01", 33), HexPublicKeyValidatorTag},
			true,
		},
		{
			"signature of the right length",
			args{strings.Repeat("0f", 64), HexSignatureValidatorTag},
			false,
		},
		{
			"a hash is not a signature",
			args{strings.Repeat("0f", 32), HexSignatureValidatorTag},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Var(tt.args.value, tt.args.tag)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHexValidators_Structs(t *testing.T) {
	validate := newValidate(t)
	type uri struct {
		TxHash string `validate:"required,hexHash"`
	}
	assert.NoError(t, validate.Struct(uri{TxHash: strings.Repeat("00", 32)}))
	assert.Error(t, validate.Struct(uri{TxHash: "nope"}))
}
