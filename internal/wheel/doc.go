// Package wheel understands Python wheel filenames and package names: it
// parses "{dist}-{version}(-{build})?-{python}-{abi}-{platform}.whl", orders
// wheels by distribution and version, and validates package names before they
// reach the network or a subprocess.
package wheel
