package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseVehicleClass_Representations tests every accepted spelling
func TestParseVehicleClass_Representations(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected VehicleClass
	}{
		{name: "car numeric", input: "1", expected: VehicleCar},
		{name: "car tag", input: "car", expected: VehicleCar},
		{name: "car vietnamese", input: "Ô tô", expected: VehicleCar},
		{name: "car vietnamese long form", input: "Ô tô con", expected: VehicleCar},
		{name: "motorbike numeric", input: "2", expected: VehicleMotorbike},
		{name: "motorbike tag", input: "motorbike", expected: VehicleMotorbike},
		{name: "motorbike vietnamese", input: "Xe máy", expected: VehicleMotorbike},
		{name: "electric motorbike numeric", input: "3", expected: VehicleElectricMotorbike},
		{name: "electric motorbike tag", input: "electric_motorbike", expected: VehicleElectricMotorbike},
		{name: "electric motorbike vietnamese", input: "Xe máy điện", expected: VehicleElectricMotorbike},
		{name: "surrounding whitespace", input: "  car  ", expected: VehicleCar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVehicleClass(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestParseVehicleClass_Unknown tests rejection of unknown spellings
func TestParseVehicleClass_Unknown(t *testing.T) {
	tests := []string{"", "0", "4", "truck", "xe tải"}

	for _, input := range tests {
		t.Run("input "+input, func(t *testing.T) {
			_, err := ParseVehicleClass(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnknownVehicleClass)
		})
	}
}

// TestVehicleClass_Code tests the provider wire codes
func TestVehicleClass_Code(t *testing.T) {
	assert.Equal(t, 1, VehicleCar.Code())
	assert.Equal(t, 2, VehicleMotorbike.Code())
	assert.Equal(t, 3, VehicleElectricMotorbike.Code())
}

// TestVehicleClass_Names tests tag and display name rendering
func TestVehicleClass_Names(t *testing.T) {
	tests := []struct {
		class   VehicleClass
		tag     string
		display string
	}{
		{class: VehicleCar, tag: "car", display: "Ô tô"},
		{class: VehicleMotorbike, tag: "motorbike", display: "Xe máy"},
		{class: VehicleElectricMotorbike, tag: "electric_motorbike", display: "Xe máy điện"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.tag, tt.class.String())
			assert.Equal(t, tt.display, tt.class.DisplayName())
			assert.True(t, tt.class.Valid())
		})
	}
}

// TestVehicleClass_Invalid tests out-of-range values
func TestVehicleClass_Invalid(t *testing.T) {
	assert.False(t, VehicleClass(0).Valid())
	assert.False(t, VehicleClass(4).Valid())

	_, err := VehicleClassFromCode(9)
	assert.ErrorIs(t, err, ErrUnknownVehicleClass)
}

// TestVehicleClass_TextRoundTrip tests TextMarshaler symmetry
func TestVehicleClass_TextRoundTrip(t *testing.T) {
	for _, class := range []VehicleClass{VehicleCar, VehicleMotorbike, VehicleElectricMotorbike} {
		text, err := class.MarshalText()
		require.NoError(t, err)

		var decoded VehicleClass
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, class, decoded)
	}
}

// TestVehicleClass_UnmarshalVietnamese tests decoding display names
func TestVehicleClass_UnmarshalVietnamese(t *testing.T) {
	var class VehicleClass
	require.NoError(t, class.UnmarshalText([]byte("Xe máy điện")))
	assert.Equal(t, VehicleElectricMotorbike, class)
}
