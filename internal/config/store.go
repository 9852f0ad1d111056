package config

const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
)

type StoreConfig struct {
	Driver string
}

func NewStoreConfig() *StoreConfig {
	return &StoreConfig{
		Driver: getEnv("STORE_DRIVER", StoreDriverMongo),
	}
}

type MongoConfig struct {
	Uri      string
	Database string
}

func NewMongoConfig() *MongoConfig {
	return &MongoConfig{
		Uri:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGO_DATABASE", "EduChainLabsDB"),
	}
}
