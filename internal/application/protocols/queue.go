package protocols

type Queue interface {
	Connect() error
	Close() error
}
