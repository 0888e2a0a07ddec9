package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContractIsPayable(t *testing.T) {
	cases := map[ContractStatus]bool{
		ContractStatusNew:        false,
		ContractStatusInProgress: true,
		ContractStatusTerminated: false,
	}
	for status, want := range cases {
		assert.Equal(t, want, Contract{Status: status}.IsPayable(), string(status))
	}
}
