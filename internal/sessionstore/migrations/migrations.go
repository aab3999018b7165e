// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
