package database

import (
	"context"

	"donation/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListOptions 列表查询的排序和分页指令
// Limit 为 0 表示不限制条数（导出场景）
type ListOptions struct {
	Sort  bson.D
	Skip  int64
	Limit int64
}

// Store 捐赠记录的数据访问层
type Store struct {
	coll *mongo.Collection
}

// NewStore 创建数据访问层，须在 Init 之后调用
func NewStore() *Store {
	return &Store{coll: collection}
}

// Find 按条件查询捐赠记录
func (s *Store) Find(ctx context.Context, filter bson.M, opts ListOptions) ([]models.Donation, error) {
	findOpts := options.Find()
	if len(opts.Sort) > 0 {
		findOpts.SetSort(opts.Sort)
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := s.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var donations []models.Donation
	if err := cursor.All(ctx, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

// Count 统计匹配条件的记录总数，与分页无关
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.coll.CountDocuments(ctx, filter)
}

// InsertOne 插入单条记录，返回新记录的 ObjectID 十六进制串
func (s *Store) InsertOne(ctx context.Context, d *models.Donation) (string, error) {
	result, err := s.coll.InsertOne(ctx, d)
	if err != nil {
		return "", err
	}
	oid := result.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

// InsertMany 批量插入，返回按存储分配顺序排列的新记录 ID
func (s *Store) InsertMany(ctx context.Context, ds []models.Donation) ([]string, error) {
	docs := make([]interface{}, len(ds))
	for i := range ds {
		docs[i] = ds[i]
	}
	result, err := s.coll.InsertMany(ctx, docs)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(result.InsertedIDs))
	for _, id := range result.InsertedIDs {
		ids = append(ids, id.(primitive.ObjectID).Hex())
	}
	return ids, nil
}

// DeleteOne 删除第一条匹配的记录，返回删除条数
func (s *Store) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	result, err := s.coll.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// Stats 聚合统计：总记录数、两币种总额、项目清单、缴费状态分布
func (s *Store) Stats(ctx context.Context) (*models.DonationStats, error) {
	stats := &models.DonationStats{
		Projects:     []string{},
		PaymentStats: []models.PaymentCount{},
	}

	// 总量聚合
	totalCursor, err := s.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"totalRecords":   bson.M{"$sum": 1},
			"totalAmountTWD": bson.M{"$sum": "$amountTWD"},
			"totalAmountRMB": bson.M{"$sum": "$amountRMB"},
		}}},
	})
	if err != nil {
		return nil, err
	}
	var totals []models.DonationStats
	if err := totalCursor.All(ctx, &totals); err != nil {
		return nil, err
	}
	if len(totals) > 0 {
		stats.TotalRecords = totals[0].TotalRecords
		stats.TotalAmountTWD = totals[0].TotalAmountTWD
		stats.TotalAmountRMB = totals[0].TotalAmountRMB
	}

	// 项目清单
	projects, err := s.coll.Distinct(ctx, "project", bson.M{})
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if name, ok := p.(string); ok {
			stats.Projects = append(stats.Projects, name)
		}
	}

	// 缴费状态分布
	paymentCursor, err := s.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$payment",
			"count": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return nil, err
	}
	if err := paymentCursor.All(ctx, &stats.PaymentStats); err != nil {
		return nil, err
	}

	return stats, nil
}
