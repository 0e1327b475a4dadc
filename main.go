package main

import (
	_ "github.com/KimMachineGun/automemlimit"
	_ "go.uber.org/automaxprocs"

	"github.com/mj1618/ldtpd/cmd"
	_ "github.com/mj1618/ldtpd/internal/platform/x11"
)

func main() {
	cmd.Execute()
}
