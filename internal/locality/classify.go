package locality

// Classify assigns an architectural identity from a coupling profile.
// Rule order matters; first match wins. GodModule is never returned here:
// it is assigned after validation, once outbound violations are counted.
func Classify(c Coupling, cfg Config) Identity {
	switch {
	case c.FanIn == 0 && c.FanOut == 0:
		return IsolatedDeadwood
	case c.FanIn >= cfg.HubFanIn && c.Skew >= cfg.HubSkew:
		return StableHub
	case c.FanOut >= cfg.HubFanIn && c.Skew <= -cfg.HubSkew:
		return VolatileLeaf
	default:
		return Regular
	}
}
