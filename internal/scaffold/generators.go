package scaffold

const baseViewModelDart = `import 'package:flutter/foundation.dart';

abstract class BaseViewModel extends ChangeNotifier {
  bool _isLoading = false;
  String? _error;

  bool get isLoading => _isLoading;
  String? get error => _error;

  void setLoading(bool value) {
    _isLoading = value;
    notifyListeners();
  }

  void setError(String? error) {
    _error = error;
    notifyListeners();
  }

  @override
  void dispose() {
    super.dispose();
  }
}
`

const appProvidersDart = `import 'package:flutter_riverpod/flutter_riverpod.dart';

// Register app-wide providers here.
final appStartupProvider = FutureProvider<void>((ref) async {});
`

func init() {
	register(Generator{
		ID:          "clean_arch",
		Name:        "Clean Architecture",
		Description: "Core/features layout with data, domain and presentation layers",
		Ops: func() []FileOp {
			return dirs(
				"lib/core/error",
				"lib/core/usecases",
				"lib/core/utils",
				"lib/features/example_feature/data/datasources",
				"lib/features/example_feature/data/models",
				"lib/features/example_feature/data/repositories",
				"lib/features/example_feature/domain/entities",
				"lib/features/example_feature/domain/repositories",
				"lib/features/example_feature/domain/usecases",
				"lib/features/example_feature/presentation/pages",
				"lib/features/example_feature/presentation/widgets",
				"lib/features/example_feature/presentation/providers",
			)
		},
	})

	register(Generator{
		ID:          "getx",
		Name:        "GetX Architecture",
		Description: "Module-based layout with bindings, routes and data layer",
		Ops: func() []FileOp {
			return dirs(
				"lib/app/modules/home/controllers",
				"lib/app/modules/home/views",
				"lib/app/modules/home/bindings",
				"lib/app/routes",
				"lib/app/bindings",
				"lib/app/data/providers",
				"lib/app/data/models",
				"lib/app/data/repositories",
				"lib/app/core/utils",
				"lib/app/core/constants",
			)
		},
	})

	register(Generator{
		ID:          "mvvm",
		Name:        "MVVM Architecture",
		Description: "Model-View-ViewModel layout with a base viewmodel",
		Ops: func() []FileOp {
			ops := dirs(
				"lib/core/base",
				"lib/core/utils",
				"lib/core/constants",
				"lib/features/example_feature/models",
				"lib/features/example_feature/views",
				"lib/features/example_feature/viewmodels",
				"lib/features/example_feature/services",
			)
			return append(ops, FileOp{
				Path:    "lib/core/base/base_viewmodel.dart",
				Content: baseViewModelDart,
			})
		},
	})

	register(Generator{
		ID:          "riverpod",
		Name:        "Riverpod Architecture",
		Description: "Feature-first layout with provider setup",
		Ops: func() []FileOp {
			ops := dirs(
				"lib/core/providers",
				"lib/core/constants",
				"lib/core/utils",
				"lib/core/theme",
				"lib/features/home/data/models",
				"lib/features/home/data/repositories",
				"lib/features/home/domain/entities",
				"lib/features/home/domain/providers",
				"lib/features/home/presentation/pages",
				"lib/features/home/presentation/widgets",
				"lib/features/home/presentation/providers",
			)
			return append(ops, FileOp{
				Path:    "lib/core/providers/app_providers.dart",
				Content: appProvidersDart,
			})
		},
	})
}
