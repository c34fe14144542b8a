package state

var (
	sequencePrefix     = []byte("seq/")
	moduleAdminPrefix  = []byte("module/admin/")
	modulePausedPrefix = []byte("module/paused/")
)

func sequenceKey(name string) []byte {
	return append(append([]byte(nil), sequencePrefix...), name...)
}

func moduleAdminKey(module string) []byte {
	return append(append([]byte(nil), moduleAdminPrefix...), module...)
}

func modulePausedKey(module string) []byte {
	return append(append([]byte(nil), modulePausedPrefix...), module...)
}
