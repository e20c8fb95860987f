package config

import (
	"strings"
	"testing"

	"github.com/ausocean/utils/logging"
)

func TestLoadCalibParsesKeyValueLines(t *testing.T) {
	src := strings.NewReader(`# a comment
IsKepler: 1
IsMultiFocus: 0
LensletWidth: 3068
LensletHeight: 4080
MIDiameter: 70

CentralMIOffsetX: 1.5
CentralMIOffsetY: -2.5
`)
	vars, err := LoadCalib(src)
	if err != nil {
		t.Fatalf("LoadCalib: %v", err)
	}
	if vars["IsKepler"] != "1" {
		t.Errorf("IsKepler = %q, want 1", vars["IsKepler"])
	}
	if vars["LensletWidth"] != "3068" {
		t.Errorf("LensletWidth = %q, want 3068", vars["LensletWidth"])
	}
}

func TestLoadCalibRejectsMalformedLine(t *testing.T) {
	src := strings.NewReader("not a key value line\n")
	if _, err := LoadCalib(src); err == nil {
		t.Fatal("expected error for malformed line")
	}
}

func TestConfigUpdateAndBuildOffsetArrange(t *testing.T) {
	c := &Config{Logger: (*logging.TestLogger)(t)}
	vars, err := LoadCalib(strings.NewReader(`
LensletWidth: 400
LensletHeight: 400
MIDiameter: 60
CentralMIOffsetX: 0
CentralMIOffsetY: 0
`))
	if err != nil {
		t.Fatalf("LoadCalib: %v", err)
	}
	c.Update(vars)
	if !c.HasOffset() || c.HasCorners() {
		t.Fatalf("expected offset arrangement only, got HasOffset=%v HasCorners=%v", c.HasOffset(), c.HasCorners())
	}

	c.FirstFrame = 0
	c.LastFrame = 1
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	arrange := c.BuildArrange()
	if arrange.MIRows() == 0 {
		t.Error("built arrange has zero MI rows")
	}
}

func TestConfigValidateRejectsAmbiguousArrangement(t *testing.T) {
	c := &Config{Logger: (*logging.TestLogger)(t), FirstFrame: 0, LastFrame: 1}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error when neither arrangement field group is set")
	}
}
