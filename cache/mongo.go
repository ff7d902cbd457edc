package cache

import (
	"context"
	"log"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dashboard-service/model"
)

const (
	newsCollection    = "newscache"
	weatherCollection = "weathercache"
	matchesCollection = "matchescache"
)

// mongoStore is the persistent cache backend. Replace is delete-then-insert;
// a standalone deployment has no multi-document transactions, so readers can
// briefly observe the gap - the in-memory mirror covers that window.
type mongoStore struct {
	db *mongo.Database
}

func (s *mongoStore) ensureIndexes(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	newsIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "publishedAt", Value: -1}}},
	}
	if _, err := s.db.Collection(newsCollection).Indexes().CreateMany(ctx, newsIndexes); err != nil {
		log.Printf("Warning: Failed to create news indexes: %v", err)
	}

	matchIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "externalMatchId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "matchDate", Value: 1}}},
	}
	if _, err := s.db.Collection(matchesCollection).Indexes().CreateMany(ctx, matchIndexes); err != nil {
		log.Printf("Warning: Failed to create match indexes: %v", err)
	}

	weatherIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: 1}}},
	}
	if _, err := s.db.Collection(weatherCollection).Indexes().CreateMany(ctx, weatherIndexes); err != nil {
		log.Printf("Warning: Failed to create weather indexes: %v", err)
	}
}

func (s *mongoStore) replaceNews(ctx context.Context, category string, articles []model.Article) error {
	collection := s.db.Collection(newsCollection)

	if _, err := collection.DeleteMany(ctx, bson.M{"category": category}); err != nil {
		return err
	}
	if len(articles) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(articles))
	for _, article := range articles {
		docs = append(docs, article)
	}
	_, err := collection.InsertMany(ctx, docs)
	return err
}

func (s *mongoStore) getNews(ctx context.Context, category string, limit int) ([]model.Article, error) {
	opts := options.Find().
		SetSort(bson.M{"publishedAt": -1}).
		SetLimit(int64(limit))

	cursor, err := s.db.Collection(newsCollection).Find(ctx, bson.M{"category": category}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var articles []model.Article
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *mongoStore) replaceWeather(ctx context.Context, snapshot model.WeatherSnapshot) error {
	collection := s.db.Collection(weatherCollection)

	if _, err := collection.DeleteMany(ctx, bson.M{"location": snapshot.Location}); err != nil {
		return err
	}
	_, err := collection.InsertOne(ctx, snapshot)
	return err
}

func (s *mongoStore) getWeather(ctx context.Context, location string) (*model.WeatherSnapshot, error) {
	opts := options.FindOne().SetSort(bson.M{"fetchedAt": -1})

	var snapshot model.WeatherSnapshot
	err := s.db.Collection(weatherCollection).FindOne(ctx, bson.M{"location": location}, opts).Decode(&snapshot)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *mongoStore) upsertMatch(ctx context.Context, match model.MatchRecord) error {
	filter := bson.M{"externalMatchId": match.ExternalMatchID}
	update := bson.M{
		"$set": bson.M{
			"homeScore": match.HomeScore,
			"awayScore": match.AwayScore,
			"status":    match.Status,
		},
		"$setOnInsert": bson.M{
			"externalMatchId": match.ExternalMatchID,
			"homeTeam":        match.HomeTeam,
			"awayTeam":        match.AwayTeam,
			"league":          match.League,
			"leagueCountry":   match.LeagueCountry,
			"matchDate":       match.MatchDate,
			"homeTeamLogo":    match.HomeTeamLogo,
			"awayTeamLogo":    match.AwayTeamLogo,
			"fetchedAt":       match.FetchedAt,
		},
	}

	_, err := s.db.Collection(matchesCollection).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (s *mongoStore) getMatches(ctx context.Context, limit int) ([]model.MatchRecord, error) {
	opts := options.Find().SetSort(bson.M{"matchDate": 1})

	cursor, err := s.db.Collection(matchesCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var matches []model.MatchRecord
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, err
	}

	// Status priority cannot be expressed as a plain Mongo sort, so order here.
	sort.SliceStable(matches, func(i, j int) bool {
		pi, pj := model.StatusPriority(matches[i].Status), model.StatusPriority(matches[j].Status)
		if pi != pj {
			return pi < pj
		}
		return matches[i].MatchDate.Before(matches[j].MatchDate)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *mongoStore) pruneMatches(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := s.db.Collection(matchesCollection).DeleteMany(ctx, bson.M{"matchDate": bson.M{"$lt": olderThan}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (s *mongoStore) counts(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, 4)

	for _, category := range []string{model.CategoryWorld, model.CategoryFootball} {
		n, err := s.db.Collection(newsCollection).CountDocuments(ctx, bson.M{"category": category})
		if err != nil {
			return nil, err
		}
		out[category] = n
	}

	weather, err := s.db.Collection(weatherCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	out["weather"] = weather

	matches, err := s.db.Collection(matchesCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	out["matches"] = matches

	return out, nil
}
