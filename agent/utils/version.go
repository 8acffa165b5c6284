package utils

// Version is overridden by the release build with -ldflags.
var Version = "0.1.0-dev"
