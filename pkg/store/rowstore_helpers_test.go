package store

import "tableflip.dev/calnotes/pkg/datekey"

func dk(s string) datekey.Key { return datekey.Key(s) }
