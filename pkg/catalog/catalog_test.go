package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, c.Families())
	assert.NotEmpty(t, c.Controls())
}

func TestDefaultReturnsSameCatalog(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestControlLookup(t *testing.T) {
	c := Default()

	ctrl, ok := c.Control("SI-2")
	require.True(t, ok)
	assert.Equal(t, "Flaw Remediation", ctrl.Name)
	assert.Equal(t, "SI", ctrl.Family)

	_, ok = c.Control("ZZ-99")
	assert.False(t, ok)
}

func TestControlLookupStripsEnhancementSuffix(t *testing.T) {
	c := Default()

	ctrl, ok := c.Control("SC-8(1)")
	require.True(t, ok)
	assert.Equal(t, "SC-8", ctrl.ID)

	ctrl, ok = c.Control("IA-5(1)")
	require.True(t, ok)
	assert.Equal(t, "IA-5", ctrl.ID)
}

func TestControlsForCVE(t *testing.T) {
	c := Default()

	assert.Equal(t, []string{"SC-8", "SC-8(1)", "SC-13"}, c.ControlsForCVE("CVE-2014-0160"))
	assert.Equal(t, []string{"SC-8", "SC-8(1)", "SC-13"}, c.ControlsForCVE("cve-2014-0160"), "lookup is case-insensitive")
	assert.Nil(t, c.ControlsForCVE("CVE-1999-0001"))
}

func TestControlsForCategory(t *testing.T) {
	c := Default()

	assert.Equal(t, []string{"SI-2"}, c.ControlsForCategory("Missing Patches"))
	assert.Nil(t, c.ControlsForCategory("Nonexistent Category"))
}

func TestEveryFamilyReferencedByControlsExists(t *testing.T) {
	c := Default()

	families := make(map[string]bool)
	for _, f := range c.Families() {
		families[f.ID] = true
	}
	for _, ctrl := range c.Controls() {
		assert.True(t, families[ctrl.Family], "control %s references unknown family %s", ctrl.ID, ctrl.Family)
	}
}

func TestEveryMappedControlResolves(t *testing.T) {
	c := Default()

	check := func(source string, controls []string) {
		for _, id := range controls {
			_, ok := c.Control(id)
			assert.True(t, ok, "%s maps to unknown control %s", source, id)
		}
	}
	for _, cve := range []string{"CVE-2014-0160", "CVE-2017-0144", "CVE-2021-44228", "CVE-2014-6271", "CVE-2017-5638"} {
		check(cve, c.ControlsForCVE(cve))
	}
	for _, cat := range []string{"Missing Patches", "Weak Encryption", "Weak Authentication", "Default Credentials", "Unnecessary Services", "Configuration Issues", "Access Control", "Remote Access", "Input Validation"} {
		check(cat, c.ControlsForCategory(cat))
	}
}

func TestBaselineControls(t *testing.T) {
	c := Default()

	low := c.BaselineControls("LOW")
	moderate := c.BaselineControls("moderate")
	high := c.BaselineControls("HIGH")

	assert.NotEmpty(t, low)
	assert.GreaterOrEqual(t, len(moderate), len(low), "MODERATE includes every LOW control")
	assert.GreaterOrEqual(t, len(high), len(moderate))

	for _, ctrl := range low {
		assert.Contains(t, ctrl.Baselines, "LOW")
	}
	assert.Empty(t, c.BaselineControls("IMAGINARY"))
}

func TestBaseID(t *testing.T) {
	assert.Equal(t, "SC-8", BaseID("SC-8(1)"))
	assert.Equal(t, "AC-17", BaseID(" AC-17 "))
	assert.Equal(t, "SI-2", BaseID("SI-2"))
}
