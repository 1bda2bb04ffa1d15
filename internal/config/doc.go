// Loads launcher configuration from environment variables.
//
// All tunables carry defaults matching the shipped desktop install, so the
// daemon runs with no configuration at all. Environment overrides exist for
// the health poll budget, the backend host, and the data and resource
// directories, primarily for development and tests.
package config
