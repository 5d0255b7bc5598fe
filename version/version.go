package version

// Version is the current release of the contactus server.
const Version = "1.0.0"
