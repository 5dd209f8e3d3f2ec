package config

import "os"

// RunConfig holds the resolved command-line configuration for one run of
// the tool: the policy toggles that shape evaluation, and the paths of
// every input/output artifact, matching the flag set parsed in main()
// in main.c.
type RunConfig struct {
	// ConfigPath is the signature-configuration file (required).
	ConfigPath string

	// DRFPath, XLSPath, DBPath, PriorityFilePath are output artifact
	// paths; each is written only when its path is non-empty.
	DRFPath          string
	XLSPath          string
	DBPath           string
	PriorityFilePath string

	// ExclusionPath and StudyDir are optional reference inputs.
	// StudyDir, when set, implies loading "<dir>/lib/DFcenters" and
	// "<dir>/lib/DFcountries".
	ExclusionPath string
	StudyDir      string

	// AllowSignerChanges exempts a change made by the signature's own
	// signer from requiring re-signing.
	AllowSignerChanges bool

	// ArrivedOnly restricts the workbook to signature nodes whose
	// signature-plate record has been observed at least once.
	ArrivedOnly bool

	// ResignWhenFinal defers a declined change to "reqd when final"
	// until its covered plate reaches a final record status.
	ResignWhenFinal bool

	// SDVMode selects the source-data-verification wording and state
	// table in place of the signing-oriented one.
	SDVMode bool

	// Debug enables verbose logging to stderr.
	Debug bool
}

// CentersPath returns the study directory's center reference file path,
// or "" if no study directory was configured.
func (c *RunConfig) CentersPath() string {
	if c.StudyDir == "" {
		return ""
	}
	return c.StudyDir + "/lib/DFcenters"
}

// CountriesPath returns the study directory's country reference file
// path, or "" if no study directory was configured.
func (c *RunConfig) CountriesPath() string {
	if c.StudyDir == "" {
		return ""
	}
	return c.StudyDir + "/lib/DFcountries"
}

// Validate checks the invariants main() enforces before doing any work:
// a configuration file must be named and must exist.
func (c *RunConfig) Validate() error {
	if c.ConfigPath == "" {
		return errNoConfigFile
	}
	if _, err := os.Stat(c.ConfigPath); err != nil {
		return err
	}
	return nil
}

var errNoConfigFile = configError("no configuration file specified")

type configError string

func (e configError) Error() string { return string(e) }
