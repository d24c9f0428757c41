package constants

// BinaryVersion is overridden at build time through -ldflags.
var BinaryVersion = "dev"
