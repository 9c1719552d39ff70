package exec

// config holds the configuration for command execution.
// Global settings are set at creation time; local settings apply to the next
// Run only and take precedence.
type config struct {
	globalInheritEnv bool
	globalMaxBuffer  int

	localEnv                 map[string]string
	localDir                 string
	localInheritEnv          *bool
	localMaxBuffer           *int
	localTerminateOnOverflow *bool
}

func newConfig() *config {
	return &config{
		localEnv: make(map[string]string),
	}
}

// clone copies the global settings. Local settings are not carried over.
func (c *config) clone() *config {
	clone := newConfig()
	clone.globalInheritEnv = c.globalInheritEnv
	clone.globalMaxBuffer = c.globalMaxBuffer
	return clone
}


func (c *config) effectiveInheritEnv() bool {
	if c.localInheritEnv != nil {
		return *c.localInheritEnv
	}
	return c.globalInheritEnv
}

func (c *config) effectiveMaxBuffer() int {
	if c.localMaxBuffer != nil {
		return *c.localMaxBuffer
	}
	return c.globalMaxBuffer
}

func (c *config) effectiveTerminateOnOverflow() bool {
	return c.localTerminateOnOverflow != nil && *c.localTerminateOnOverflow
}

// resetLocal clears local settings so they don't carry over to the next Run.
func (c *config) resetLocal() {
	c.localEnv = make(map[string]string)
	c.localDir = ""
	c.localInheritEnv = nil
	c.localMaxBuffer = nil
	c.localTerminateOnOverflow = nil
}
