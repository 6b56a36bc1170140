package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yourrightpocket/charityround/config"
	"github.com/yourrightpocket/charityround/internal/infrastructure/everyorg"
	"github.com/yourrightpocket/charityround/pkg/helpers"
)

// app-level container to share constructed components across packages.
// Router modules auto-wire from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	jwtManager *helpers.JWTManager

	txnPublisher    *helpers.RabbitPublisher
	receiptsPub     *helpers.RabbitPublisher
	directoryClient *everyorg.Client
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager != nil {
		return jwtManager
	}
	return helpers.DefaultJWT()
}

func SetTxnPub(p *helpers.RabbitPublisher)      { txnPublisher = p }
func GetTxnPub() *helpers.RabbitPublisher       { return txnPublisher }
func SetReceiptsPub(p *helpers.RabbitPublisher) { receiptsPub = p }
func GetReceiptsPub() *helpers.RabbitPublisher  { return receiptsPub }
func SetDirectory(c *everyorg.Client)           { directoryClient = c }
func GetDirectory() *everyorg.Client            { return directoryClient }
