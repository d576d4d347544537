package store

// 此包只包含实现，接口定义在 core 包：
//   - MemoryStore / RedisStore 实现 core.Store 和 core.KeyValueStore
//   - EmbeddingAdapter / ClusterAdapter / RelationAdapter /
//     InteractionAdapter / UserAdapter 把领域存储接口落到 KV 后端上
//
// 示例：
//   kv := store.NewMemoryStore()
//   var relations core.RelationStore = &store.RelationAdapter{Store: kv}
