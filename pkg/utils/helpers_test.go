package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestCalculateMD5(t *testing.T) {
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", CalculateMD5([]byte("hello")))
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", CalculateMD5(nil), "空输入也应得到确定的哈希")
}

func TestConvertArrayToJSON(t *testing.T) {
	assert.Equal(t, datatypes.JSON("[]"), ConvertArrayToJSON(nil))
	assert.Equal(t, datatypes.JSON("[]"), ConvertArrayToJSON([]string{}))
	assert.Equal(t, datatypes.JSON(`["python","sql"]`), ConvertArrayToJSON([]string{"python", "sql"}))
}
