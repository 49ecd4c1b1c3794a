package config

import "fmt"

// GenerateConfigTemplate generates a configuration template with comments
func GenerateConfigTemplate(email, outputDir string) string {
	if email == "" {
		email = "you@example.org"
	}
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	return fmt.Sprintf(`# ephemfetch configuration
# Use with: ephemfetch fetch --config ephemfetch.yaml <week>...
#
# Every key can be overridden by an EPHEMFETCH_<KEY> environment variable
# (for example EPHEMFETCH_EMAIL), a .env file in the working directory, or a
# command-line flag.

# Archive host and port. The control channel is upgraded with AUTH TLS and the
# data channel is protected (PROT P) before any transfer.
host: %s
port: %d

# Anonymous login. The archive asks for an email address as the password.
user: %s
email: %s

# Remote directory holding one sub-directory per GNSS week
productsDir: %s

# Local directory receiving the products (created if missing)
outputDir: %s

# Dial timeout
timeout: %s

# Skip TLS certificate verification (testing only)
# insecureSkipVerify: false

# Use PASV instead of EPSV for data connections
# disableEPSV: false
`, DefaultHost, DefaultPort, DefaultUser, email, DefaultProductsDir, outputDir, DefaultTimeout)
}
