package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Guyuepp/go-social-feed/internal/eventbus"
	"github.com/Guyuepp/go-social-feed/internal/queue"
	mysqlRepo "github.com/Guyuepp/go-social-feed/internal/repository/mysql"
	"github.com/Guyuepp/go-social-feed/internal/repository/mysql/model"
	redisRepo "github.com/Guyuepp/go-social-feed/internal/repository/redis"
	"github.com/Guyuepp/go-social-feed/internal/workers"

	"github.com/Guyuepp/go-social-feed/internal/rest"
	"github.com/Guyuepp/go-social-feed/internal/rest/middleware"
	likeUsecase "github.com/Guyuepp/go-social-feed/internal/usecase/like"
	notificationUsecase "github.com/Guyuepp/go-social-feed/internal/usecase/notification"
	postUsecase "github.com/Guyuepp/go-social-feed/internal/usecase/post"
)

const (
	defaultTimeout      = 30
	defaultAddress      = ":9090"
	defaultCacheDB      = 0
	defaultBloomBitSize = 10000000
	defaultWorkers      = 2
	dbMaxRetry          = 10
	dbRetryIntervalSec  = 2
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("no .env file found, relying on environment")
	}
}

func main() {
	//prepare database
	dbHost := os.Getenv("DATABASE_HOST")
	dbPort := os.Getenv("DATABASE_PORT")
	dbUser := os.Getenv("DATABASE_USER")
	dbPass := os.Getenv("DATABASE_PASS")
	dbName := os.Getenv("DATABASE_NAME")
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", dbUser, dbPass, dbHost, dbPort, dbName)
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "UTC")
	dsn := fmt.Sprintf("%s?%s", connection, val.Encode())

	var (
		db  *gorm.DB
		err error
	)

	for i := range dbMaxRetry {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Printf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, err := db.DB()
			if err != nil {
				log.Printf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				continue
			}
			err = sqlDB.Ping()
			if err == nil {
				break
			}
			log.Printf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			_ = sqlDB.Close()
		}

		time.Sleep(dbRetryIntervalSec * time.Second)
	}

	if err != nil {
		log.Fatal("could not connect to database after retries:", err)
	}

	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("got error when getting sql.DB from gorm.DB", err)
		}
		if err := sqlDB.Close(); err != nil {
			log.Fatal("got error when closing the DB connection", err)
		}
	}()

	if err := db.AutoMigrate(&model.User{}, &model.Post{}, &model.Like{}, &model.Notification{}); err != nil {
		log.Fatal("failed to migrate database schema: ", err)
	}

	// prepare redis (job queue + bloom filter)
	cacheHost := os.Getenv("CACHE_HOST")
	cachePort := os.Getenv("CACHE_PORT")
	cachePass := os.Getenv("CACHE_PASS")
	cacheDBStr := os.Getenv("CACHE_DB")
	cacheDB, err := strconv.Atoi(cacheDBStr)
	if err != nil {
		log.Println("failed to parse cacheDB, using default cacheDB")
		cacheDB = defaultCacheDB
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cacheHost + ":" + cachePort,
		Password: cachePass,
		DB:       cacheDB,
	})
	defer func() {
		err = client.Close()
		if err != nil {
			log.Fatal("got error when closing the redis connection", err)
		}
	}()

	_, err = client.Ping(context.Background()).Result()
	if err != nil {
		log.Fatal("failed to open connection to redis", err)
		return
	}

	// prepare gin
	route := gin.Default()
	route.Use(middleware.CORS())
	timeoutStr := os.Getenv("CONTEXT_TIMEOUT")
	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil {
		log.Println("failed to parse timeout, using default timeout")
		timeout = defaultTimeout
	}
	timeoutContext := time.Duration(timeout) * time.Second
	route.Use(middleware.SetRequestContextWithTimeout(timeoutContext))

	// Prepare Repository
	userRepo := mysqlRepo.NewUserRepository(db)
	postRepo := mysqlRepo.NewPostRepository(db)
	likeRepo := mysqlRepo.NewLikeRepository(db)
	notificationRepo := mysqlRepo.NewNotificationRepository(db)

	bloomBitSizeStr := os.Getenv("BLOOM_FILTER_SIZE")
	bloomBitSize, err := strconv.ParseUint(bloomBitSizeStr, 10, 64)
	if err != nil {
		log.Printf("failed to parse bloom bit size, using default size")
		bloomBitSize = defaultBloomBitSize
	}
	bloomRepo := redisRepo.NewRedisBloomRepo(client, bloomBitSize)

	// Event bus and durable job queue
	bus := eventbus.New()
	jobQueue := queue.NewRedisQueue(client)

	// Build service layer. The like engine sees the post side only through
	// the PostCounter capability, and the post service sees likes only
	// through LikeQuery; both are wired here.
	likeSvc := likeUsecase.NewService(likeRepo, postRepo, userRepo, bloomRepo, bus)
	postSvc := postUsecase.NewService(postRepo, likeSvc, bloomRepo)
	notificationSvc := notificationUsecase.NewService(notificationRepo)

	// Start workers
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := workers.NewNotificationDispatcher(jobQueue)
	dispatcher.Register(bus)

	workerCount, err := strconv.Atoi(os.Getenv("WORKER_CONCURRENCY"))
	if err != nil || workerCount < 1 {
		workerCount = defaultWorkers
	}
	notificationWorker := workers.NewNotificationWorker(jobQueue, notificationSvc)
	for range workerCount {
		go notificationWorker.Start(ctx)
	}

	postHandler := rest.NewPostHandler(postSvc)
	likeHandler := rest.NewLikeHandler(likeSvc)
	notificationHandler := rest.NewNotificationHandler(notificationSvc)

	// Prepare bloom filter
	if err := postSvc.InitBloomFilter(ctx); err != nil {
		log.Printf("failed to init bloom filter: %v\n", err)
		return
	}

	// Register routes
	identity := middleware.Identity(userRepo)
	v1 := route.Group("/v1")
	v1.Use(identity)
	{
		v1.POST("/posts", postHandler.Store)
		v1.GET("/posts", postHandler.Fetch)
		v1.GET("/posts/:id", postHandler.GetByID)
		v1.PATCH("/posts/:id", postHandler.Update)

		v1.POST("/posts/:id/likes", likeHandler.Like)
		v1.DELETE("/posts/:id/likes", likeHandler.Unlike)
		v1.GET("/posts/:id/likes", likeHandler.ListLikers)
		v1.POST("/posts/:id/like", likeHandler.Toggle)

		v1.GET("/notifications", notificationHandler.List)
		v1.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		v1.GET("/notifications/unread/count", notificationHandler.UnreadCount)
	}

	// Start Server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	go func() {
		log.Printf("Server is running on %s\n", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err) // nolint
		}
	}()

	// shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Waiting for workers to cleanup...")
	time.Sleep(2 * time.Second)

	log.Println("Server exiting")
}
