package annotation

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/a9s/pkg/errors"
)

// DefaultRedisPrefix namespaces all keys written by RedisStore.
const DefaultRedisPrefix = "a9s:"

// RedisStore keeps each annotation as a JSON string and maintains one set
// of IDs per source plus a set of all IDs.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore returns a store on client. An empty prefix means
// DefaultRedisPrefix.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) annotationKey(id string) string { return s.prefix + "annotation:" + id }
func (s *RedisStore) sourceKey(source string) string { return s.prefix + "source:" + source }
func (s *RedisStore) allKey() string                 { return s.prefix + "annotations" }

func (s *RedisStore) Get(ctx context.Context, id string) (Annotation, error) {
	data, err := s.client.Get(ctx, s.annotationKey(id)).Bytes()
	if err == redis.Nil {
		return Annotation{}, notFound(id)
	}
	if err != nil {
		return Annotation{}, errors.Wrap(errors.ErrCodeStore, err, "redis get %s", id)
	}
	var a Annotation
	if err := json.Unmarshal(data, &a); err != nil {
		return Annotation{}, errors.Wrap(errors.ErrCodeStore, err, "parse annotation %s", id)
	}
	return a, nil
}

func (s *RedisStore) List(ctx context.Context, source string) ([]Annotation, error) {
	index := s.allKey()
	if source != "" {
		index = s.sourceKey(source)
	}
	ids, err := s.client.SMembers(ctx, index).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "redis list %s", index)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.annotationKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "redis mget")
	}

	list := make([]Annotation, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue // deleted between SMEMBERS and MGET
		}
		var a Annotation
		if err := json.Unmarshal([]byte(str), &a); err != nil {
			continue
		}
		list = append(list, a)
	}
	sortAnnotations(list)
	return list, nil
}

func (s *RedisStore) Put(ctx context.Context, a Annotation) error {
	if err := a.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(a)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal annotation")
	}

	prev, err := s.Get(ctx, a.ID)
	hadPrev := err == nil
	if err != nil && !errors.Is(err, errors.ErrCodeAnnotationNotFound) {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.annotationKey(a.ID), data, 0)
		pipe.SAdd(ctx, s.allKey(), a.ID)
		pipe.SAdd(ctx, s.sourceKey(a.Target.Source), a.ID)
		if hadPrev && prev.Target.Source != a.Target.Source {
			pipe.SRem(ctx, s.sourceKey(prev.Target.Source), a.ID)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "redis put %s", a.ID)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	prev, err := s.Get(ctx, id)
	if errors.Is(err, errors.ErrCodeAnnotationNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.annotationKey(id))
		pipe.SRem(ctx, s.allKey(), id)
		pipe.SRem(ctx, s.sourceKey(prev.Target.Source), id)
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "redis delete %s", id)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
