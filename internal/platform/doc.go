// Package platform smooths over filesystem differences between Unix and
// Windows for the few operations wheelhouse needs: permission bits and
// replacing a file with a freshly written sibling.
package platform
