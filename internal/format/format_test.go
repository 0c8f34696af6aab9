package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumber(t *testing.T) {
	testCases := []struct {
		value  float64
		expect string
	}{
		{value: 0, expect: "0.00"},
		{value: 0.456, expect: "0.46"},
		{value: 1, expect: "1"},
		{value: 999.4, expect: "999"},
		{value: 999.5, expect: "1,000"},
		{value: 1234567.8, expect: "1,234,568"},
		{value: 123456, expect: "123,456"},
		{value: -0.5, expect: "-0.50"},
		{value: -1234.4, expect: "-1,234"},
		{value: 1e15, expect: "1,000,000,000,000,000"},
		{value: math.Inf(1), expect: "+Inf"},
	}
	for _, tCase := range testCases {
		assert.Equal(t, tCase.expect, Number(tCase.value), "value %v", tCase.value)
	}
}

func TestResult(t *testing.T) {
	assert.Equal(t, "12,345 ops/sec ±1.23%", Result(12345.4, 1.234))
	assert.Equal(t, "0.50 ops/sec ±0.00%", Result(0.5, 0))
}

func TestCycleAndChange(t *testing.T) {
	assert.Equal(t, "Index x 1,500 ops/sec (7 runs sampled)", Cycle("Index", 1500, 7))
	assert.Equal(t, "12% faster than baseline", Change(12.3))
	assert.Equal(t, "20% slower than baseline", Change(-20))
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "", Indent(0))
	assert.Equal(t, "    ", Indent(2))
	assert.Equal(t, "", Indent(-1))
}
