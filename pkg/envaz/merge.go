package envaz

import "maps"

// Merge 合并本地文件变量与 Azure 变量，同名时本地文件优先。
//
// 结果等价于 {...azure, ...dotenv}；不读取进程环境，输入 map 不会被修改。
// 进程环境中预先存在的变量只在 [Populate] 阶段生效，不体现在返回值中。
func Merge(dotenv, azure Variables) Variables {
	joined := make(Variables, len(azure)+len(dotenv))
	maps.Copy(joined, azure)
	maps.Copy(joined, dotenv)
	return joined
}

// combineRemote 合并普通配置与已解析的 secret。
func combineRemote(plain, secrets Variables) Variables {
	return Merge(secrets, plain)
}
