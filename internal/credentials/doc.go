// Package credentials discovers the S3 credentials a request needs. An
// optional .env file is located by walking up from the working directory
// and loaded into the process environment; the AWS variables are then read
// into an explicit Credentials value that callers pass on to fetchers.
package credentials
