//go:build linux

package x11

import "github.com/mj1618/ldtpd/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		d, err := Open(nil)
		if err != nil {
			return nil, err
		}
		return d.Provider(), nil
	}
}
