// Package azdev installs the Azure CLI extension development toolchain
// into a virtual environment and registers the extension with it.
//
// The install policy distinguishes the primary tool from auxiliary
// dependencies: azdev itself gets one visible retry and then fails the
// pipeline, while pinned compatibility fixes and extra runtime
// dependencies degrade to warnings — a broken auxiliary install should
// not abort an otherwise working setup.
package azdev
