package main

import (
	"context"
	"log"

	"Orbit_Social/internal/config"
	"Orbit_Social/internal/model"
	"Orbit_Social/internal/pkg"
	"Orbit_Social/internal/repository/mysql"
	"Orbit_Social/internal/repository/redis"
	"Orbit_Social/internal/router"
	"Orbit_Social/internal/service"
)

func main() {
	cfg := config.Load()
	pkg.ConfigureSecrets(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		log.Fatalf("mysql init: %v", err)
	}
	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		log.Fatalf("redis init: %v", err)
	}

	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Follow{},
		&model.SocialOutbox{},
		&model.Community{},
		&model.CommunityMember{},
		&model.Post{},
		&model.Comment{},
		&model.Message{},
	); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	// relay follow events out of the transactional outbox; falls back to
	// stdout when no broker is configured
	sender := service.Sender(service.LogSender)
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			log.Fatalf("kafka init: %v", err)
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	relayer := service.NewOutboxRelayer(mysql.NewOutboxRepository(mysql.DB), sender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go relayer.Run(ctx)

	r := router.InitRouter(cfg)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
