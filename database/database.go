package database

import (
	"context"
	"fmt"
	"log"

	"donation/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	client     *mongo.Client
	collection *mongo.Collection
)

// Init 初始化 MongoDB 连接并创建索引
func Init(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.Timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.Database.URI).
		SetMaxPoolSize(cfg.Database.MaxPoolSize).
		SetServerSelectionTimeout(cfg.Database.Timeout)

	var err error
	client, err = mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("数据库连接检测失败: %w", err)
	}

	collection = client.Database(cfg.Database.Name).Collection(cfg.Database.Collection)

	if err := ensureIndexes(ctx); err != nil {
		// 索引创建失败不阻止启动，已有数据重复时 localId 唯一索引会建不上
		log.Printf("警告: 创建索引失败: %v", err)
	}

	log.Println("数据库初始化成功")
	return nil
}

// ensureIndexes 创建查询和唯一性约束所需的索引
func ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "submittedAt", Value: -1}},
			Options: options.Index().SetName("submittedAt_desc"),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("name_asc"),
		},
		{
			Keys:    bson.D{{Key: "project", Value: 1}},
			Options: options.Index().SetName("project_asc"),
		},
		{
			Keys:    bson.D{{Key: "payment", Value: 1}},
			Options: options.Index().SetName("payment_asc"),
		},
		{
			// 稀疏唯一索引: 只约束带 localId 的文档
			Keys:    bson.D{{Key: "localId", Value: 1}},
			Options: options.Index().SetName("localId_unique").SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "deviceId", Value: 1}},
			Options: options.Index().SetName("deviceId_index"),
		},
		{
			Keys:    bson.D{{Key: "batchId", Value: 1}},
			Options: options.Index().SetName("batchId_index"),
		},
		{
			Keys:    bson.D{{Key: "contact", Value: 1}},
			Options: options.Index().SetName("contact_index"),
		},
		{
			Keys:    bson.D{{Key: "amountTWD", Value: -1}},
			Options: options.Index().SetName("amountTWD_desc"),
		},
		{
			// 全文索引，支撑列表接口的 search 参数
			Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "project", Value: "text"},
				{Key: "content", Value: "text"},
				{Key: "contact", Value: "text"},
			},
			Options: options.Index().SetName("donation_text_search"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// Collection 获取捐赠记录集合
func Collection() *mongo.Collection {
	return collection
}

// Health 探测数据库连通性，返回是否可用和说明文字
func Health(ctx context.Context) (bool, string) {
	if client == nil {
		return false, "数据库未初始化"
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return false, fmt.Sprintf("数据库连接异常: %v", err)
	}
	return true, "数据库连接正常"
}

// Close 断开数据库连接
func Close(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}
