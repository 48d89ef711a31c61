package store

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.Store 和 core.KeyValueStore 接口。
//
// 在 movierec 中的用途：
//   - 训练快照 blob 的持久化（model.SaveSnapshot / LoadSnapshot）
//   - 热门榜的有序集合发布（recall.Popularity.SyncToStore）
//   - 电影元数据的 Hash 存取
//
// 示例：
//   var s core.Store = NewMemoryStore()
//   var kv core.KeyValueStore = NewMemoryStore()
