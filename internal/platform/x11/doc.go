// Package x11 exposes the top-level windows of an EWMH-compliant X11
// window manager as a desktop: one application node per WM_CLASS, one
// frame per managed client. Windows have no accessible descendants; the
// frame itself supports focus and geometry.
//
// Importing the package registers the backend with platform.NewProvider
// on linux.
package x11
