package modes

type Mode uint8

const (
	ModeProduction Mode = iota + 1
	ModeDevelopment
)

func (m Mode) String() string {
	switch m {
	case ModeProduction:
		return "production"
	case ModeDevelopment:
		return "development"
	}
	return "unknown"
}

// IsDevelopment is true for test scopes, where runtimes trace and check types.
func (m Mode) IsDevelopment() bool {
	return m == ModeDevelopment
}
