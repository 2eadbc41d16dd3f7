package service

import (
	"pfxcrack/internal/port"
)

var _ port.CrackingService = (*CrackingService)(nil)
