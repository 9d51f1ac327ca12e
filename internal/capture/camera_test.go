package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicFacingDetector(t *testing.T) {
	tests := []struct {
		name   string
		track  *fakeTrack
		expect Facing
	}{
		{"capability report wins", &fakeTrack{facing: FacingFront, label: "Back Camera"}, FacingFront},
		{"capability rear wins over front label", &fakeTrack{facing: FacingRear, label: "Front Camera"}, FacingRear},
		{"label front", &fakeTrack{label: "Front Camera"}, FacingFront},
		{"label user, mixed case", &fakeTrack{label: "USER Facing Cam"}, FacingFront},
		{"label selfie", &fakeTrack{label: "selfie cam 2"}, FacingFront},
		{"label facetime", &fakeTrack{label: "FaceTime HD"}, FacingFront},
		{"unrecognised label defaults to rear", &fakeTrack{label: "Integrated Webcam"}, FacingRear},
		{"empty label defaults to rear", &fakeTrack{}, FacingRear},
	}

	d := HeuristicFacingDetector{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, d.Detect(tt.track))
		})
	}
}

func TestParseFacing(t *testing.T) {
	assert.Equal(t, FacingFront, ParseFacing("user"))
	assert.Equal(t, FacingFront, ParseFacing("Front"))
	assert.Equal(t, FacingRear, ParseFacing("environment"))
	assert.Equal(t, FacingRear, ParseFacing("rear"))
	assert.Equal(t, FacingUnknown, ParseFacing(""))
	assert.Equal(t, FacingUnknown, ParseFacing("sideways"))
}
