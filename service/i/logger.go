package i

// Logger is the leveled logger services write to.
type Logger interface {
	Debug(string)
	Info(string)
	Warning(string)
	Error(string)
}
