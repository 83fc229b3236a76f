// Package config provides the configuration of the rheumaview command line:
// output location, export format, page layout and the optional intake
// capabilities. Values come from flags, optionally merged with a named
// profile from a .rheumaview YAML file.
package config
